package model

import "time"

// Session — сессия администратора, созданная при успешном входе.
// Хранится только в памяти процесса и теряется при рестарте.
type Session struct {
	// Token — непрозрачный токен, выданный клиенту
	Token string
	// Username — имя аутентифицированного администратора
	Username string
	// LoginTime — момент входа
	LoginTime time.Time
}

// ExpiresAt возвращает момент истечения сессии для заданного времени жизни.
func (s *Session) ExpiresAt(ttl time.Duration) time.Time {
	return s.LoginTime.Add(ttl)
}

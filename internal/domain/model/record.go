package model

// Record — одна запись посетителя.
// Создаётся один раз при успешной отправке формы, не изменяется и не удаляется.
type Record struct {
	// ID — уникальный идентификатор (время в мс, автоинкремент или id из БД — зависит от хранилища)
	ID int64 `json:"id"`
	// Name — имя посетителя без пробелов по краям, никогда не пустое
	Name string `json:"name"`
	// IP — адрес посетителя (вычисленный сервером или присланный клиентом)
	IP string `json:"ip"`
	// Time — местное время UTC+4 в формате "2006-01-02 15:04:05"
	Time string `json:"time"`
	// Timestamp — момент создания в UTC (ISO 8601 с миллисекундами)
	Timestamp string `json:"timestamp"`
}

// Пакет static — встроенные страницы сайта: форма посетителя (index.html),
// панель администратора (admin.html) и общий стиль.
// Файлы встраиваются в бинарник через //go:embed и раздаются через HTTP.
package static

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed public/*
var content embed.FS

// FileSystem возвращает http.FileSystem с корнем в public/.
// Файлы доступны по путям вида /style.css.
func FileSystem() http.FileSystem {
	return http.FS(FS())
}

// FS возвращает fs.FS с корнем в public/.
func FS() fs.FS {
	sub, err := fs.Sub(content, "public")
	if err != nil {
		// public/ встроен при компиляции, ошибка здесь невозможна
		panic(err)
	}
	return sub
}

// Page возвращает содержимое встроенной страницы name (например "index.html").
func Page(name string) ([]byte, error) {
	return fs.ReadFile(FS(), name)
}

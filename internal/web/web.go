// Package web は埋め込み済みのフロントエンドアセットを提供する。
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var staticFS embed.FS

// NewHandler は埋め込み済みSPAを配信するハンドラーを返す。
// 存在しないパスへのリクエストはindex.htmlにフォールバックする。
func NewHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// embedディレクティブが正しい限り到達しない
		panic(err)
	}

	fileServer := http.FileServer(http.FS(sub))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if path == "/" {
			fileServer.ServeHTTP(w, r)
			return
		}

		// 実ファイルが存在すればそれを返し、なければSPAのルートへ
		f, err := sub.Open(path[1:])
		if err != nil {
			r.URL.Path = "/"
			fileServer.ServeHTTP(w, r)
			return
		}
		f.Close()

		fileServer.ServeHTTP(w, r)
	})
}

package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// runDownload は添付文書のファイルを取得して保存する。
func runDownload(e *env) error {
	fs, _ := e.flags("download")
	output := fs.StringP("output", "o", "", "fichier de destination (- pour la sortie standard)")
	force := fs.Bool("force", false, "écraser un fichier existant")
	if err := fs.Parse(e.args); err != nil {
		return err
	}
	ids, err := parseIDs(fs.Args())
	if err != nil {
		return err
	}
	if len(ids) != 1 {
		return errors.New("download: exactly one document id is required")
	}
	if err := e.requireSession(); err != nil {
		return err
	}

	doc, err := e.rt.Services.Documents.Detail(e.ctx, ids[0])
	if err != nil {
		return err
	}
	src := doc.URLFichier
	if src == "" {
		src = doc.Fichier
	}
	if src == "" {
		return fmt.Errorf("document %d has no file", doc.ID)
	}

	if *output == "-" {
		_, err := e.rt.Downloader.Download(e.ctx, src, e.io.Stdout)
		return err
	}

	path := *output
	if path == "" {
		path = localFileName(e.rt.Sanitizer.Sanitize(doc.NomFichier), doc.ID)
	}
	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if *force {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	n, err := e.rt.Downloader.Download(e.ctx, src, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return err
	}

	fmt.Fprintf(e.io.Stdout, "%s (%d octets)\n", path, n)
	return nil
}

// localFileName はサーバーが返したファイル名からディレクトリ成分を取り除く。
func localFileName(name string, id int) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == ".." || name == "" {
		return fmt.Sprintf("document-%d", id)
	}
	return name
}

package httpclient

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
)

// Multipart はmultipart/form-dataとして送るボディ。
// Requestのボディにこの型を渡すと、JSONのContent-Typeは付与されない。
type Multipart struct {
	fields []Param
	files  []filePart
}

type filePart struct {
	field    string
	filename string
	content  io.Reader
}

// Field はテキストフィールドを追加する。
func (m *Multipart) Field(name, value string) *Multipart {
	m.fields = append(m.fields, Param{Key: name, Value: value})
	return m
}

// File はファイルフィールドを追加する。
func (m *Multipart) File(field, filename string, content io.Reader) *Multipart {
	m.files = append(m.files, filePart{field: field, filename: filename, content: content})
	return m
}

// encode はボディとboundary付きのContent-Typeを返す。
func (m *Multipart) encode() (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range m.fields {
		if err := w.WriteField(f.Key, f.Value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", f.Key, err)
		}
	}
	for _, f := range m.files {
		part, err := w.CreateFormFile(f.field, f.filename)
		if err != nil {
			return nil, "", fmt.Errorf("create form file %s: %w", f.field, err)
		}
		if _, err := io.Copy(part, f.content); err != nil {
			return nil, "", fmt.Errorf("copy file %s: %w", f.filename, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

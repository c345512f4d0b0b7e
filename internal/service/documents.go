package service

import (
	"context"
	"net/http"
	"strconv"

	"github.com/hitoshi/suivi/internal/httpclient"
	"github.com/hitoshi/suivi/internal/model"
)

const documentsPath = "/api/documents/"

// DocumentService は文書APIを呼び出す。
type DocumentService struct {
	client *httpclient.Client
}

// List はフィルタに一致する文書を返す。
func (s *DocumentService) List(ctx context.Context, f model.DocumentFilters) ([]model.Document, error) {
	return get[[]model.Document](ctx, s.client, documentsPath, DocumentQuery(f))
}

// Detail は文書1件を返す。
func (s *DocumentService) Detail(ctx context.Context, id int) (model.Document, error) {
	return get[model.Document](ctx, s.client, itemPath(documentsPath, id), nil)
}

// Upload はファイルをmultipartで送信し、作成された文書を返す。
func (s *DocumentService) Upload(ctx context.Context, p model.UploadDocumentPayload) (model.Document, error) {
	body := (&httpclient.Multipart{}).
		Field("courrier", strconv.Itoa(p.Courrier)).
		File("fichier", p.FileName, p.File)
	if p.Description != "" {
		body.Field("description", p.Description)
	}
	return send[model.Document](ctx, s.client, http.MethodPost, documentsPath, body)
}

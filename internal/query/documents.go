package query

import (
	"context"

	"github.com/hitoshi/suivi/internal/model"
	"github.com/hitoshi/suivi/internal/service"
)

// NewDocuments は郵便物の添付文書のクエリを生成する。courrierIDが0なら取得しない。
// アップロードは mutation.UploadDocument で行い、成功時に Refetch を呼ぶ。
func NewDocuments(ctx context.Context, svc *service.DocumentService, courrierID int, opts ...Option[int]) *Query[int, []model.Document] {
	fetch := func(ctx context.Context, id int) ([]model.Document, error) {
		return svc.List(ctx, model.DocumentFilters{Courrier: id})
	}
	opts = append([]Option[int]{WithFallback[int]("Failed to load documents"), WithEnabled(idSet)}, opts...)
	return New(ctx, "documents", fetch, courrierID, opts...)
}

// Package service はバックエンドの各リソースに対する型付きの呼び出しを提供する。
// キャッシュや重複排除は行わず、呼び出しごとにトランスポートを1回使う。
package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hitoshi/suivi/internal/httpclient"
)

// Services は全リソースのサービスをまとめたもの。
type Services struct {
	Projects  *ProjectService
	Equipment *EquipmentService
	Dossiers  *DossierService
	Courriers *CourrierService
	Documents *DocumentService
	Regions   *RegionService
	History   *HistoryService
	Stats     *StatsService
}

// New はトランスポートを共有する全サービスを生成する。
func New(c *httpclient.Client) *Services {
	return &Services{
		Projects:  &ProjectService{client: c},
		Equipment: &EquipmentService{client: c},
		Dossiers:  &DossierService{client: c},
		Courriers: &CourrierService{client: c},
		Documents: &DocumentService{client: c},
		Regions:   &RegionService{client: c},
		History:   &HistoryService{client: c},
		Stats:     &StatsService{client: c},
	}
}

func get[T any](ctx context.Context, c *httpclient.Client, path string, q httpclient.Params) (T, error) {
	return httpclient.Call[T](ctx, c, httpclient.Request{Method: http.MethodGet, Path: path, Query: q})
}

func send[T any](ctx context.Context, c *httpclient.Client, method, path string, body any) (T, error) {
	return httpclient.Call[T](ctx, c, httpclient.Request{Method: method, Path: path, Body: body})
}

func itemPath(collection string, id int) string {
	return fmt.Sprintf("%s%d/", collection, id)
}

func actionPath(collection string, id int, action string) string {
	return fmt.Sprintf("%s%d/%s/", collection, id, action)
}

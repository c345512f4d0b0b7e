package service

import (
	"context"

	"github.com/hitoshi/suivi/internal/httpclient"
	"github.com/hitoshi/suivi/internal/model"
)

const (
	regionsPath   = "/api/regions/"
	historyPath   = "/api/historiques/"
	dashboardPath = "/api/dashboard/stats/"
)

// RegionService は地域APIを呼び出す。
type RegionService struct {
	client *httpclient.Client
}

// List は全地域を返す。
func (s *RegionService) List(ctx context.Context) ([]model.Region, error) {
	return get[[]model.Region](ctx, s.client, regionsPath, nil)
}

// Detail は地域1件を返す。
func (s *RegionService) Detail(ctx context.Context, id int) (model.Region, error) {
	return get[model.Region](ctx, s.client, itemPath(regionsPath, id), nil)
}

// HistoryService は操作履歴APIを呼び出す。
type HistoryService struct {
	client *httpclient.Client
}

// List はフィルタに一致する履歴を返す。
func (s *HistoryService) List(ctx context.Context, f model.HistoryFilters) ([]model.HistoryEntry, error) {
	return get[[]model.HistoryEntry](ctx, s.client, historyPath, HistoryQuery(f))
}

// Detail は履歴1件を返す。
func (s *HistoryService) Detail(ctx context.Context, id int) (model.HistoryEntry, error) {
	return get[model.HistoryEntry](ctx, s.client, itemPath(historyPath, id), nil)
}

// StatsService はダッシュボード向けの集計APIを呼び出す。
type StatsService struct {
	client *httpclient.Client
}

// Dashboard はエンティティ別の集計を返す。
func (s *StatsService) Dashboard(ctx context.Context) (model.DashboardStats, error) {
	return get[model.DashboardStats](ctx, s.client, dashboardPath, nil)
}

// RecentActivity は直近の操作履歴をlimit件まで返す。
func (s *StatsService) RecentActivity(ctx context.Context, limit int) ([]model.HistoryEntry, error) {
	return get[[]model.HistoryEntry](ctx, s.client, historyPath, HistoryQuery(model.HistoryFilters{Limit: limit}))
}

package service

import (
	"context"
	"net/http"

	"github.com/hitoshi/suivi/internal/httpclient"
	"github.com/hitoshi/suivi/internal/model"
)

const equipmentPath = "/api/equipements/"

// EquipmentService は設備APIを呼び出す。
type EquipmentService struct {
	client *httpclient.Client
}

// List はフィルタに一致する設備を返す。
func (s *EquipmentService) List(ctx context.Context, f model.EquipmentFilters) ([]model.Equipment, error) {
	return get[[]model.Equipment](ctx, s.client, equipmentPath, EquipmentQuery(f))
}

// Detail は設備1件を返す。
func (s *EquipmentService) Detail(ctx context.Context, id int) (model.Equipment, error) {
	return get[model.Equipment](ctx, s.client, itemPath(equipmentPath, id), nil)
}

// Create は設備を作成する。
func (s *EquipmentService) Create(ctx context.Context, p model.CreateEquipmentPayload) (model.Equipment, error) {
	return send[model.Equipment](ctx, s.client, http.MethodPost, equipmentPath, p)
}

// Update は設備を更新する。
func (s *EquipmentService) Update(ctx context.Context, id int, p model.UpdateEquipmentPayload) (model.Equipment, error) {
	return send[model.Equipment](ctx, s.client, http.MethodPut, itemPath(equipmentPath, id), p)
}

// Delete は設備を削除する。
func (s *EquipmentService) Delete(ctx context.Context, id int) error {
	return s.client.Do(ctx, httpclient.Request{Method: http.MethodDelete, Path: itemPath(equipmentPath, id)}, nil)
}

// Validate は設備を検証済みにする。
func (s *EquipmentService) Validate(ctx context.Context, id int) (model.StatusResponse, error) {
	return send[model.StatusResponse](ctx, s.client, http.MethodPost, actionPath(equipmentPath, id, "valider"), nil)
}

// Reject は設備を却下する。
func (s *EquipmentService) Reject(ctx context.Context, id int) (model.StatusResponse, error) {
	return send[model.StatusResponse](ctx, s.client, http.MethodPost, actionPath(equipmentPath, id, "refuser"), nil)
}

// Specifications は設備の技術特性を返す。
func (s *EquipmentService) Specifications(ctx context.Context, id int) ([]model.Specification, error) {
	return get[[]model.Specification](ctx, s.client, actionPath(equipmentPath, id, "features"), nil)
}

// History は設備に関する操作履歴を返す。
func (s *EquipmentService) History(ctx context.Context, id int) ([]model.HistoryEntry, error) {
	q := HistoryQuery(model.HistoryFilters{ObjetType: model.HistoryObjectEquipment, ObjetID: id})
	return get[[]model.HistoryEntry](ctx, s.client, historyPath, q)
}

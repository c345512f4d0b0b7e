package model

// 履歴の対象種別としてバックエンドが使う値。
const (
	HistoryObjectDossier   = "Dossier"
	HistoryObjectDocument  = "DocumentCourrier"
	HistoryObjectEquipment = "Equipment"
	HistoryObjectProject   = "Project"
)

// HistoryEntry はユーザー操作の監査記録を表す。読み取り専用。
type HistoryEntry struct {
	ID           int    `json:"id"`
	User         int    `json:"user"`
	UserUsername string `json:"user_username"`
	Action       string `json:"action"`
	DateAction   string `json:"date_action"`
	ObjetType    string `json:"objet_type"`
	ObjetID      int    `json:"objet_id"`
}

// HistoryFilters は履歴一覧の絞り込み条件。
type HistoryFilters struct {
	ObjetType string `json:"objet_type,omitempty"`
	ObjetID   int    `json:"objet_id,omitempty"`
	Limit     int    `json:"limit,omitempty"`
}

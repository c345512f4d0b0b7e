package model

// StatMap はステータス名ごとの件数。
type StatMap map[string]int

// DossierStats は書類の集計。
type DossierStats struct {
	Total     int     `json:"total"`
	ParStatut StatMap `json:"par_statut"`
	ParType   StatMap `json:"par_type"`
}

// EquipmentStats は設備の集計。
type EquipmentStats struct {
	Total     int     `json:"total"`
	ParStatut StatMap `json:"par_statut"`
	ParEtat   StatMap `json:"par_etat"`
}

// ProjectStats はプロジェクトの集計。
type ProjectStats struct {
	Total   int     `json:"total"`
	ParEtat StatMap `json:"par_etat"`
}

// CourrierStats は郵便物の集計。
type CourrierStats struct {
	Total     int     `json:"total"`
	ParStatut StatMap `json:"par_statut"`
}

// DashboardStats はダッシュボードに表示するエンティティ別の集計。
// サーバー側で再計算され、クライアントは読み取るだけである。
type DashboardStats struct {
	Projets     ProjectStats   `json:"projets"`
	Equipements EquipmentStats `json:"equipements"`
	Dossiers    DossierStats   `json:"dossiers"`
	Courriers   CourrierStats  `json:"courriers"`
}

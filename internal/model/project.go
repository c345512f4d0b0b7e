package model

// ProjectState はプロジェクトの進行状態。
type ProjectState string

const (
	ProjectStatePreparation ProjectState = "En préparation"
	ProjectStateInProgress  ProjectState = "En cours"
	ProjectStateDone        ProjectState = "Terminé"
)

// Project はリージョンに属するプロジェクトを表す。
// サーバーが所有し、クライアントは作成以外で変更しない。
type Project struct {
	ID                int          `json:"id"`
	Nom               string       `json:"nom"`
	Region            int          `json:"region"`
	RegionNom         string       `json:"region_nom"`
	RegionCode        string       `json:"region_code"`
	Description       string       `json:"description"`
	DateCreation      string       `json:"date_creation"`
	Etat              ProjectState `json:"etat"`
	NombreEquipements int          `json:"nombre_equipements"`
}

// ProjectFilters はプロジェクト一覧の絞り込み条件。ゼロ値は未指定を意味する。
type ProjectFilters struct {
	RegionCode string       `json:"region__code,omitempty"`
	RegionID   int          `json:"region_id,omitempty"`
	Etat       ProjectState `json:"etat,omitempty"`
}

// CreateProjectPayload はプロジェクト作成リクエストのボディ。
type CreateProjectPayload struct {
	Nom         string       `json:"nom"`
	Region      int          `json:"region"`
	Description string       `json:"description,omitempty"`
	Etat        ProjectState `json:"etat"`
}

// Validate は作成フォームの必須項目を検証する。
func (p CreateProjectPayload) Validate() error {
	fields := map[string]string{}
	if isBlank(p.Nom) {
		fields["nom"] = "Nom requis"
	}
	if p.Region == 0 {
		fields["region"] = "Région requise"
	}
	if p.Etat == "" {
		fields["etat"] = "État requis"
	}
	return requiredFields(fields)
}

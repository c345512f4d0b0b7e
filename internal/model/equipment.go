package model

// EquipmentStatus は設備の検証ステータス。validate/rejectアクションでのみ遷移する。
type EquipmentStatus string

const (
	EquipmentStatusPending    EquipmentStatus = "En attente"
	EquipmentStatusInProgress EquipmentStatus = "En cours"
	EquipmentStatusValidated  EquipmentStatus = "Validé"
	EquipmentStatusRejected   EquipmentStatus = "Rejeté"
)

// EquipmentState は設備の稼働状態。
type EquipmentState string

const (
	EquipmentStateInService  EquipmentState = "En service"
	EquipmentStateBroken     EquipmentState = "En panne"
	EquipmentStateOutOfOrder EquipmentState = "Hors service"
)

// Specification は設備の技術特性（カテゴリと値の組）を表す。
type Specification struct {
	ID             int    `json:"id"`
	Equipement     int    `json:"equipement"`
	Categorie      int    `json:"categorie"`
	CategorieNom   string `json:"categorie_nom"`
	CategorieUnite string `json:"categorie_unite"`
	Valeur         string `json:"valeur"`
}

// Equipment はプロジェクトに属する設備を表す。
type Equipment struct {
	ID               int             `json:"id"`
	Projet           int             `json:"projet"`
	ProjetNom        string          `json:"projet_nom"`
	Nom              string          `json:"nom"`
	Localisation     string          `json:"localisation"`
	Statut           EquipmentStatus `json:"statut"`
	Etat             EquipmentState  `json:"etat"`
	Reference        string          `json:"reference"`
	NumeroSerie      string          `json:"numero_serie"`
	DateInstallation string          `json:"date_installation"`
	Specifications   []Specification `json:"specifications"`
	NombreDossiers   int             `json:"nombre_dossiers"`
}

// EquipmentFilters は設備一覧の絞り込み条件。
type EquipmentFilters struct {
	Statut EquipmentStatus `json:"statut,omitempty"`
	Etat   EquipmentState  `json:"etat,omitempty"`
	Projet int             `json:"projet,omitempty"`
}

// CreateEquipmentPayload は設備作成リクエストのボディ。
type CreateEquipmentPayload struct {
	Projet           int             `json:"projet"`
	Nom              string          `json:"nom"`
	Localisation     string          `json:"localisation,omitempty"`
	Statut           EquipmentStatus `json:"statut"`
	Etat             EquipmentState  `json:"etat,omitempty"`
	Reference        string          `json:"reference,omitempty"`
	NumeroSerie      string          `json:"numero_serie,omitempty"`
	DateInstallation string          `json:"date_installation,omitempty"`
}

// Validate は作成フォームの必須項目を検証する。
func (p CreateEquipmentPayload) Validate() error {
	fields := map[string]string{}
	if isBlank(p.Nom) {
		fields["nom"] = "Nom requis"
	}
	if p.Projet == 0 {
		fields["projet"] = "Projet requis"
	}
	if p.Statut == "" {
		fields["statut"] = "Statut requis"
	}
	return requiredFields(fields)
}

// UpdateEquipmentPayload は設備更新リクエストのボディ。
// nilのフィールドは送信しない。
type UpdateEquipmentPayload struct {
	Projet           *int             `json:"projet,omitempty"`
	Nom              *string          `json:"nom,omitempty"`
	Localisation     *string          `json:"localisation,omitempty"`
	Statut           *EquipmentStatus `json:"statut,omitempty"`
	Etat             *EquipmentState  `json:"etat,omitempty"`
	Reference        *string          `json:"reference,omitempty"`
	NumeroSerie      *string          `json:"numero_serie,omitempty"`
	DateInstallation *string          `json:"date_installation,omitempty"`
}

// StatusResponse はvalider/refuserアクションの応答。
type StatusResponse struct {
	ID     int    `json:"id"`
	Statut string `json:"statut"`
}

package model

import "io"

// CourrierInfo は文書に埋め込まれる郵便物の要約。
type CourrierInfo struct {
	ID        int    `json:"id"`
	Reference string `json:"reference"`
	Objet     string `json:"objet"`
}

// Document は郵便物に添付されたファイルのメタデータを表す。
// アップロードでのみ作成され、以後クライアントからは変更できない。
type Document struct {
	ID                int          `json:"id"`
	Courrier          int          `json:"courrier"`
	CourrierInfo      CourrierInfo `json:"courrier_info"`
	Fichier           string       `json:"fichier"`
	NomFichier        string       `json:"nom_fichier"`
	TypeDocument      string       `json:"type_document"`
	Taille            int64        `json:"taille"`
	Description       string       `json:"description,omitempty"`
	DateAjout         string       `json:"date_ajout"`
	AjoutePar         int          `json:"ajoute_par"`
	AjouteParUsername string       `json:"ajoute_par_username"`
	URLFichier        string       `json:"url_fichier"`
}

// DocumentFilters は文書一覧の絞り込み条件。
type DocumentFilters struct {
	Courrier     int    `json:"courrier,omitempty"`
	TypeDocument string `json:"type_document,omitempty"`
}

// UploadDocumentPayload はmultipartアップロードの入力。
// Sizeは検証にのみ使い、送信はしない。
type UploadDocumentPayload struct {
	Courrier    int
	FileName    string
	File        io.Reader
	Size        int64
	Description string
}

// Validate はファイルの選択とサイズ上限を検証する。
func (p UploadDocumentPayload) Validate() error {
	if p.File == nil || isBlank(p.FileName) {
		return NewFileMissingError()
	}
	if p.Size > MaxUploadSizeMB*1024*1024 {
		return NewFileTooLargeError(MaxUploadSizeMB)
	}
	if p.Courrier == 0 {
		return requiredFields(map[string]string{"courrier": "Courrier requis"})
	}
	return nil
}

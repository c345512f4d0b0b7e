package model

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError は送信前のクライアント側検証エラーを表す。
// ネットワークには到達せず、UIはFieldsをフォームのヘルパーテキストとして表示する。
type ValidationError struct {
	Code     string            // エラーコード
	Message  string            // エラーメッセージ
	Category string            // カテゴリ: 常に validation
	Action   string            // ユーザー向け対処方法
	Fields   map[string]string // フィールド名 -> メッセージ
}

// Error はerrorインターフェースを実装する。
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, strings.Join(names, ", "))
}

// UserMessage は通知バナーに表示する文言を返す。
func (e *ValidationError) UserMessage() string {
	return e.Message
}

// 定義済みエラーコード
const (
	ErrCodeRequiredFields  = "REQUIRED_FIELDS"
	ErrCodeFileMissing     = "FILE_MISSING"
	ErrCodeFileTooLarge    = "FILE_TOO_LARGE"
	ErrCodeCommentRequired = "COMMENT_REQUIRED"
)

// MaxUploadSizeMB はアップロード可能なファイルサイズの上限（MB）。
const MaxUploadSizeMB = 25

// NewRequiredFieldsError は必須項目未入力エラーを生成する。
func NewRequiredFieldsError(fields map[string]string) *ValidationError {
	return &ValidationError{
		Code:     ErrCodeRequiredFields,
		Message:  "Champs obligatoires manquants",
		Category: "validation",
		Action:   "Complétez les champs signalés puis réessayez.",
		Fields:   fields,
	}
}

// NewFileMissingError はファイル未選択エラーを生成する。
func NewFileMissingError() *ValidationError {
	return &ValidationError{
		Code:     ErrCodeFileMissing,
		Message:  "Sélectionnez un fichier avant de continuer.",
		Category: "validation",
		Action:   "Choisissez le fichier à joindre au courrier.",
		Fields:   map[string]string{"fichier": "Fichier requis"},
	}
}

// NewFileTooLargeError はファイルサイズ超過エラーを生成する。
func NewFileTooLargeError(maxMB int) *ValidationError {
	return &ValidationError{
		Code:     ErrCodeFileTooLarge,
		Message:  fmt.Sprintf("Le fichier dépasse %d Mo.", maxMB),
		Category: "validation",
		Action:   "Compressez le fichier ou joignez une version plus légère.",
		Fields:   map[string]string{"fichier": fmt.Sprintf("Taille maximale %d Mo", maxMB)},
	}
}

// NewCommentRequiredError は却下時のコメント未入力エラーを生成する。
func NewCommentRequiredError() *ValidationError {
	return &ValidationError{
		Code:     ErrCodeCommentRequired,
		Message:  "Un commentaire est requis pour un rejet.",
		Category: "validation",
		Action:   "Expliquez le motif du rejet dans le commentaire.",
		Fields:   map[string]string{"commentaire": "Commentaire requis"},
	}
}

// requiredFields はエラー対象のフィールドがあればValidationErrorを返す。
func requiredFields(fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	return NewRequiredFieldsError(fields)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

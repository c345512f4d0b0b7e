// Package model はバックエンドAPIが返すドメインモデルを定義する。
// クライアントは独自のIDやライフサイクルを持たず、取得したコピーを保持するだけである。
package model

// User は認証済みユーザーの識別情報を表す。
// Bearer方式ではアクセストークンのクレームから、Token方式ではプロフィールAPIから解決する。
type User struct {
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// TokenPair はトークンエンドポイントが返す資格情報の組。
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// LoginPayload はログインリクエストのボディ。
type LoginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate はログインフォームの必須項目を検証する。
func (p LoginPayload) Validate() error {
	fields := map[string]string{}
	if isBlank(p.Username) {
		fields["username"] = "Identifiant requis"
	}
	if p.Password == "" {
		fields["password"] = "Mot de passe requis"
	}
	return requiredFields(fields)
}

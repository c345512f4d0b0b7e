package model

// Region は静的な参照データとしての地域。
type Region struct {
	ID   int    `json:"id"`
	Nom  string `json:"nom"`
	Code string `json:"code"`
}

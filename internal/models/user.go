package models

type User struct {
	UserID       int32  `json:"user_id"`
	UserName     string `json:"user_name"`
	PasswordHash string `json:"-"`
}

type Credentials struct {
	UserName string `json:"user_name"`
	Password string `json:"password"`
}

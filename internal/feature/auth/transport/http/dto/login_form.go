package dto

// LoginForm は POST /login のフォームボディを表します。
// 必須フィールドの存在のみを検証します。
type LoginForm struct {
	Email    string `form:"email" binding:"required"`
	Password string `form:"password" binding:"required"`
}

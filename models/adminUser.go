package models

import "time"

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

type AdminUser struct {
	Admin_User_ID   int       `json:"adminUserId" goqu:"skipinsert"`
	Username        string    `json:"username"`
	Password        string    `json:"-"`
	Role            string    `json:"role"`
	Datetime_Create time.Time `json:"datetimeCreate" goqu:"skipinsert"`
}

type Login struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

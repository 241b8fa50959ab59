package models

import "time"

type Category struct {
	Category_ID     int       `json:"id" goqu:"skipinsert"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Icon            string    `json:"icon"`
	Color           string    `json:"color"`
	Is_Active       bool      `json:"isActive"`
	Datetime_Create time.Time `json:"datetimeCreate" goqu:"skipinsert,skipupdate"`
	Datetime_Update time.Time `json:"datetimeUpdate" goqu:"skipinsert,skipupdate"`
}

type CategoryCreate struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	Is_Active   *bool  `json:"isActive"`
}

type CategoryUpdate struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
	Color       *string `json:"color"`
	Is_Active   *bool   `json:"isActive"`
}

// CategoryView is an entry of the combined category list. Stored categories
// carry their numeric id as a string; song-only tags are marked IsTag.
type CategoryView struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Color       string     `json:"color"`
	IsActive    bool       `json:"isActive"`
	IsTag       bool       `json:"isTag"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// CategoryStats counts a page's songs in one category.
type CategoryStats struct {
	Name    string `json:"name"`
	Heard   int    `json:"heard"`
	Unheard int    `json:"unheard"`
}

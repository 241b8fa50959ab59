package models

import "time"

// DefaultCommentAuthor labels comments written through the app.
const DefaultCommentAuthor = "Pastor"

// Comment is a pastor comment on a song
type Comment struct {
	Comment_ID int       `json:"id" goqu:"skipinsert"`
	Song_ID    int       `json:"songId"`
	Text       string    `json:"text"`
	Date       time.Time `json:"date"`
	Author     string    `json:"author"`
}

type CommentCreate struct {
	Text   string `json:"text" binding:"required"`
	Author string `json:"author"`
}

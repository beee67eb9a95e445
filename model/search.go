package model

/*

Search keeps a viewer's last user search

Id: primary key
ViewerId: owner, one search state per user
Content: last query
Users: ids of matching users, followed users first

*/

type Search struct {
	Id       string `gorm:"primaryKey"`
	ViewerId string `gorm:"uniqueIndex"`
	Content  string
	Users    StringList
}

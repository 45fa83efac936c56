package model

import "time"

// User はアグリゲータの利用ユーザーを表す。
// nameはシステム全体で一意。
type User struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

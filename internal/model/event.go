package model

// Event 活動，id 與 created_at 由遠端 store 指派
type Event struct {
	ID          int    `json:"id"`
	CreatedAt   string `json:"created_at"`
	Name        string `json:"name"`
	Date        string `json:"date"`
	Description string `json:"description"`
}

// NewEvent 新增活動時送出的欄位（不含 id、created_at）
type NewEvent struct {
	Name        string `json:"name"`
	Date        string `json:"date"`
	Description string `json:"description"`
}

// UpdateEventParams ID 只用來篩選目標列，不會寫入 body；nil 欄位保持不變
type UpdateEventParams struct {
	ID          int     `json:"-"`
	Name        *string `json:"name,omitempty"`
	Date        *string `json:"date,omitempty"`
	Description *string `json:"description,omitempty"`
}

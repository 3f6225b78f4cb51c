package draw

type DrawRequest struct {
	NumWinners int  `json:"num_winners" binding:"required,min=1"`
	PoolSize   *int `json:"pool_size" binding:"omitempty,min=0"`
}

type DrawResult struct {
	EventID       string   `json:"event_id"`
	TotalEntrants int      `json:"total_entrants"`
	Winners       []string `json:"winners"`
	Replacements  []string `json:"replacements"`
	Notified      int      `json:"notified"`
	NotifyFailed  int      `json:"notify_failed"`
}

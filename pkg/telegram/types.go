package telegram

// InlineButton is a single inline-keyboard URL button.
type InlineButton struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// apiResponse is the common Bot API envelope.
type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// getFileResponse is the envelope for getFile.
type getFileResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
	Result      struct {
		FileID   string `json:"file_id"`
		FilePath string `json:"file_path"`
		FileSize int64  `json:"file_size"`
	} `json:"result"`
}

// Update is the inbound webhook payload shape. Only the fields the ingestion
// pipeline reads are modeled.
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message"`
}

// Message is an inbound chat message.
type Message struct {
	MessageID int64  `json:"message_id"`
	Caption   string `json:"caption"`
	Video     *Video `json:"video"`
	Chat      Chat   `json:"chat"`
}

// Video is a video attachment on a message.
type Video struct {
	FileID   string `json:"file_id"`
	FileName string `json:"file_name"`
	MimeType string `json:"mime_type"`
	Duration int    `json:"duration"`
}

// Chat identifies the conversation a message arrived in.
type Chat struct {
	ID int64 `json:"id"`
}

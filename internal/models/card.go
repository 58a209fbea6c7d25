package models

type TrelloCard struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Desc             string  `json:"desc"`
	IDBoard          string  `json:"idBoard"`
	IDShort          int     `json:"idShort"`
	ShortLink        string  `json:"shortLink"`
	ShortURL         string  `json:"shortUrl"`
	URL              string  `json:"url"`
	Closed           bool    `json:"closed"`
	Due              *string `json:"due"`
	DueComplete      bool    `json:"dueComplete"`
	DateLastActivity string  `json:"dateLastActivity"`
}

type TrelloAttachment struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	URL      string  `json:"url"`
	Date     string  `json:"date"`
	IDMember string  `json:"idMember"`
	IsUpload bool    `json:"isUpload"`
	MimeType string  `json:"mimeType"`
	Bytes    *int64  `json:"bytes"`
	Pos      float64 `json:"pos"`
}

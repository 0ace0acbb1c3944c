package model

import "time"

type SNSType string

const (
	SNSTypeKakao   SNSType = "kakao"
	SNSTypeGoogle  SNSType = "google"
	SNSTypeCognito SNSType = "cognito"
)

type User struct {
	ID        string    `json:"id"`
	SNSType   SNSType   `json:"snsType"`
	SNSID     string    `json:"snsId"`
	Nickname  string    `json:"nickname"`
	Position  string    `json:"position"`
	Stacks    []string  `json:"stacks"`
	Sido      string    `json:"sido"`
	Sigungu   string    `json:"sigungu"`
	ImageURL  string    `json:"imageURL"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

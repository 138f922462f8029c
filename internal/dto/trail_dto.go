package dto

import "rainier-guide-be/pkg/trails"

type TrailListResponse struct {
	Count  int           `json:"count"`
	Trails []trails.Hike `json:"trails"`
}

type TrailCategoriesResponse struct {
	Categories []trails.CategoryLink `json:"categories"`
}

type TrailListTextResponse struct {
	Question string `json:"question"`
	Text     string `json:"text"`
}

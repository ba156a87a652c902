package challenge

type AppGoalRequest struct {
	AppCode  string `json:"appCode"`
	GoalTime int64  `json:"goalTime"`
}

type AppRemoveRequest struct {
	AppCode string `json:"appCode"`
}

type StartChallengeRequest struct {
	Period   int              `json:"period"`
	GoalTime int64            `json:"goalTime"`
	Apps     []AppGoalRequest `json:"apps,omitempty"`
}

type UpdateTodayStatusRequest struct {
	Status Status `json:"status"`
}

type AppGoalResponse struct {
	AppCode  string `json:"appCode"`
	GoalTime int64  `json:"goalTime"`
}

// ChallengeResponse is the full current-challenge view: the progress timeline
// plus the tracked app list.
type ChallengeResponse struct {
	Period     int               `json:"period"`
	StartDate  string            `json:"startDate"`
	GoalTime   int64             `json:"goalTime"`
	TodayIndex int               `json:"todayIndex"`
	Statuses   []Status          `json:"statuses"`
	Apps       []AppGoalResponse `json:"apps"`
}

// HomeResponse is the lightweight today view shown on the app home screen.
type HomeResponse struct {
	Status   Status            `json:"status"`
	GoalTime int64             `json:"goalTime"`
	Apps     []AppGoalResponse `json:"apps"`
}

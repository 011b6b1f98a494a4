package data

type Platform string

const (
	VK      Platform = "VK"
	RUTUBE  Platform = "Rutube"
	YOUTUBE Platform = "YouTube"
)

func (p Platform) Icon() string {
	switch p {
	case VK:
		return "🔵"
	case RUTUBE, YOUTUBE:
		return "🔴"
	}
	return "📹"
}

type VideoResult struct {
	Title           string   `json:"title"`
	Url             string   `json:"url"`
	Platform        Platform `json:"platform"`
	DurationSeconds int      `json:"durationSeconds"`
}

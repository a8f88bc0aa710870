package domain

// MediaType is the kind of object an upload belongs to.
type MediaType string

const (
	MediaAvatar     MediaType = "avatar"
	MediaPost       MediaType = "post"
	MediaBackground MediaType = "background"
	MediaFund       MediaType = "fund"
)

func MediaTypes() []string {
	return []string{string(MediaAvatar), string(MediaPost), string(MediaBackground), string(MediaFund)}
}

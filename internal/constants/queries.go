package constants

const (
	GetStatusByApiKey = `
	SELECT * FROM api_keys WHERE key = $1
	`
)

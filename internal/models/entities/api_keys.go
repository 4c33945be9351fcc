package entities

type ApiKey struct {
	ID     string `db:"id"`
	Key    string `db:"key"`
	Status bool   `db:"status"`
}

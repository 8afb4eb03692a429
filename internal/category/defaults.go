package category

// Default holds a seed category created on first run.
type Default struct {
	Name string
	Icon string
}

// Defaults is the starter taxonomy for a fresh catalog. Operators can
// rename or delete any of these; the seed only runs when the category
// table is empty.
var Defaults = []Default{
	{Name: "Apps", Icon: "smartphone"},
	{Name: "Software", Icon: "monitor"},
	{Name: "Games", Icon: "gamepad"},
	{Name: "Videos", Icon: "film"},
	{Name: "Music", Icon: "music"},
	{Name: "Documents", Icon: "file-text"},
	{Name: "Ebooks", Icon: "book"},
	{Name: "Other", Icon: "archive"},
}

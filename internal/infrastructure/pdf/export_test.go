package pdf

var (
	Clip             = clip
	ShortDate        = shortDate
	CountSubmissions = countSubmissions
)

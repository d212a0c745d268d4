package units

const (
	KB = 1000.0
	MB = 1000.0 * 1000.0
	GB = 1000.0 * 1000.0 * 1000.0
)

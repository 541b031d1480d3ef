package config

// Floor viewer layout configuration
const (
	// Tile size in pixels
	TileSize = 12

	// Height of the status strip above the floor, in pixels
	StatusBarHeight = 32

	// Smallest window the viewer will open, in pixels
	MinWindowWidth  = 640
	MinWindowHeight = 480
)

// GetWindowSize returns the window size needed to show a floor of the given
// dimensions at TileSize, never smaller than the minimum window
func GetWindowSize(floorWidth, floorHeight int) (width, height int) {
	width = floorWidth * TileSize
	height = floorHeight*TileSize + StatusBarHeight
	if width < MinWindowWidth {
		width = MinWindowWidth
	}
	if height < MinWindowHeight {
		height = MinWindowHeight
	}
	return width, height
}

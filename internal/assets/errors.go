package assets

import "fmt"

// AssetError reports a file that could not be read, decoded or uploaded.
type AssetError struct {
	Path string
	Op   string
	Err  error
}

func (e *AssetError) Error() string {
	return fmt.Sprintf("assets: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *AssetError) Unwrap() error { return e.Err }

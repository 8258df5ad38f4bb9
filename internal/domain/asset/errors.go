package asset

import "errors"

var (
	ErrAssetNotFound      = errors.New("asset not found")
	ErrAssetAlreadyExists = errors.New("asset already registered")
	ErrNativeAsset        = errors.New("native asset cannot be removed")
)

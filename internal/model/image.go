package model

type ImageKind string

const (
	ImageLocal  ImageKind = "local"
	ImageRemote ImageKind = "remote"
)

// LocalFile is an image picked by the operator but not uploaded yet.
type LocalFile struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
}

// ImageRef is either a pending local file or an uploaded remote URL.
type ImageRef struct {
	Kind ImageKind  `json:"kind,omitempty"`
	URL  string     `json:"url,omitempty"`
	File *LocalFile `json:"file,omitempty"`
}

func RemoteImage(url string) ImageRef {
	return ImageRef{Kind: ImageRemote, URL: url}
}

func LocalImage(file *LocalFile) ImageRef {
	return ImageRef{Kind: ImageLocal, File: file}
}

func (r ImageRef) IsLocal() bool {
	return r.Kind == ImageLocal && r.File != nil
}

func (r ImageRef) IsEmpty() bool {
	if r.IsLocal() {
		return len(r.File.Data) == 0
	}
	return r.URL == ""
}

type ProductImage struct {
	Image        ImageRef `json:"image"`
	IsPrimary    bool     `json:"is_primary"`
	DisplayOrder int      `json:"display_order"`
}

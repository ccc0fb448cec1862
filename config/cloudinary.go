package config

// Cloudinary holds the media store credentials used to sign uploads.
// Each value has a provider-prefixed name and a bare fallback name.
type Cloudinary struct {
	CloudName string
	APIKey    string
	APISecret string
}

func LoadCloudinary() Cloudinary {
	return Cloudinary{
		CloudName: firstEnv("CLOUDINARY_CLOUD_NAME", "CLOUD_NAME"),
		APIKey:    firstEnv("CLOUDINARY_API_KEY", "API_KEY"),
		APISecret: firstEnv("CLOUDINARY_API_SECRET", "API_SECRET"),
	}
}

// Missing lists the variables that are not set. Values are never included.
func (c Cloudinary) Missing() []string {
	var out []string
	if c.CloudName == "" {
		out = append(out, "CLOUDINARY_CLOUD_NAME")
	}
	if c.APIKey == "" {
		out = append(out, "CLOUDINARY_API_KEY")
	}
	if c.APISecret == "" {
		out = append(out, "CLOUDINARY_API_SECRET")
	}
	return out
}

func (c Cloudinary) Configured() bool { return len(c.Missing()) == 0 }

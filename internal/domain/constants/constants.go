package constants

// Environment names
const (
	EnvLocal      = "local"
	EnvDevelop    = "develop"
	EnvProduction = "production"
)

// Pub/Sub providers
const (
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)

// Upload folders inside the media bucket
const (
	UploadFolderProfiles = "blogsphere/profiles"
	UploadFolderBlogs    = "blogsphere/blogs"
	UploadFolderContent  = "blogsphere/content"
)

// DefaultCoverImage is stored on blogs created without a cover image.
const DefaultCoverImage = "default-blog-cover.jpg"

// PopularBlogsLimit caps the popular listing.
const PopularBlogsLimit = 5

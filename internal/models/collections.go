package models

// Names of the backend collections.
const (
	CollectionProducts     = "products"
	CollectionTestimonials = "testimonials"
	CollectionComments     = "comments"
	CollectionMessages     = "contact_messages"
	CollectionProfiles     = "profiles"
	CollectionUserRoles    = "user_roles"
)

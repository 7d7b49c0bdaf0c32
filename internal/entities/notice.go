package entities

// NoticeKind identifies a dismissible user notice.
type NoticeKind string

const (
	NoticeFavoriteAdded     NoticeKind = "favorite_added"
	NoticeDuplicateFavorite NoticeKind = "duplicate_favorite"
	NoticeFavoriteRemoved   NoticeKind = "favorite_removed"
	NoticeFavoritesReset    NoticeKind = "favorites_reset"
	NoticeError             NoticeKind = "error"
)

// Notice is an informational message shown once and then dismissed.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Title   string     `json:"title"`
	Message string     `json:"message"`
	DrinkID string     `json:"drink_id,omitempty"`
}

func NewFavoriteAddedNotice(drinkID string) Notice {
	return Notice{
		Kind:    NoticeFavoriteAdded,
		Title:   "Favorite added",
		Message: "The cocktail was added to your favorites.",
		DrinkID: drinkID,
	}
}

func NewDuplicateFavoriteNotice(drinkID string) Notice {
	return Notice{
		Kind:    NoticeDuplicateFavorite,
		Title:   "Already in favorites",
		Message: "This cocktail is already in your favorites list.",
		DrinkID: drinkID,
	}
}

func NewFavoriteRemovedNotice(drinkID string) Notice {
	return Notice{
		Kind:    NoticeFavoriteRemoved,
		Title:   "Cocktail removed",
		Message: "The cocktail was removed from your favorites.",
		DrinkID: drinkID,
	}
}

func NewFavoritesResetNotice() Notice {
	return Notice{
		Kind:    NoticeFavoritesReset,
		Title:   "Favorites reset",
		Message: "Your favorites list was cleared.",
	}
}

func NewErrorNotice(message string) Notice {
	return Notice{Kind: NoticeError, Title: "Error", Message: message}
}

package cache

const (
	KEY_CART_ITEMS = "store:cart-items:"
	KEY_MENU_ITEMS = "store:menu-items"
)

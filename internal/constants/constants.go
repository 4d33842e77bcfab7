package constants

const (
	APP_MAIN_STOREFRONT    = "main sunnyside"
	APP_STOREFRONT_SERVICE = "storefront-service"
	APP_STORE_SERVICE      = "store-service"
	APP_USER_SERVICE       = "user-service"
	AUDIENCE_USER          = "audience-user"
)

const (
	KEY_APP_NAME           = "app"
	KEY_TAG                = "tag"
	KEY_PROCESS            = "process"
	KEY_CONFIG             = "config"
	KEY_REQUEST_ID         = "requestId"
	KEY_REQUEST            = "request"
	KEY_HEADER             = "header"
	KEY_BODY               = "body"
	KEY_REQUEST_HOST       = "host"
	KEY_REQUEST_IP         = "requesterIP"
	KEY_REQUEST_METHOD     = "requestMethod"
	KEY_REQUEST_URI        = "requestURI"
	KEY_REQUEST_URL        = "requestURL"
	KEY_TRACE_ID           = "traceId"
	KEY_SPAN_ID            = "spanId"
	KEY_TOKEN              = "token"
	KEY_EMAIL              = "email"
	KEY_USER_ID            = "userId"
	KEY_MENU_ITEM_ID       = "menuItemId"
	KEY_LINE_ITEM_ID       = "lineItemId"
	KEY_LINE_ITEMS_COUNT   = "lineItemsCount"
	KEY_LINE_ITEM_QUANTITY = "quantity"
	KEY_ORDER_ID           = "orderId"
	KEY_ORDER_TOTAL        = "orderTotal"
	KEY_CACHE_KEY          = "cacheKey"
	KEY_DB_URL             = "dbURL"
	KEY_STORE_BASE_URL     = "storeBaseURL"
)

package storeapi

import (
	"net/http"
	"time"

	"github.com/dev-harshpatel/stoq/internal/cart"
	"github.com/dev-harshpatel/stoq/internal/domain"
	"github.com/dev-harshpatel/stoq/internal/webserver"
	"github.com/labstack/echo/v4"
)

type cartPayload struct {
	Items []cart.Entry `json:"items"`
}

type wishlistPayload struct {
	Items []cart.WishEntry `json:"items"`
}

type mergePayload struct {
	Cart     []cart.Entry     `json:"cart"`
	Wishlist []cart.WishEntry `json:"wishlist"`
}

// registerCartRoutes registers cart and wishlist endpoints
func registerCartRoutes() {
	webserver.ApiGET("/store/cart", getCart)
	webserver.ApiPUT("/store/cart", putCart)
	webserver.ApiGET("/store/wishlist", getWishlist)
	webserver.ApiPUT("/store/wishlist", putWishlist)
	webserver.ApiPOST("/store/cart/merge", mergeLocalState)
}

func getCart(c echo.Context) error {
	cust, err := currentCustomer(c)
	if err != nil {
		return err
	}
	return ok(c, cart.DecodeCart(cust.Cart))
}

func putCart(c echo.Context) error {
	cust, err := currentCustomer(c)
	if err != nil {
		return err
	}
	var payload cartPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse cart", err.Error())
	}
	if err := GetDB(c).Model(&domain.Customer{}).Where("id = ?", cust.ID).Updates(map[string]interface{}{
		"cart":       cart.EncodeCart(payload.Items),
		"updated_at": time.Now(),
	}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to save cart", err.Error())
	}
	return ok(c, payload.Items)
}

func getWishlist(c echo.Context) error {
	cust, err := currentCustomer(c)
	if err != nil {
		return err
	}
	return ok(c, cart.DecodeWishlist(cust.Wishlist))
}

func putWishlist(c echo.Context) error {
	cust, err := currentCustomer(c)
	if err != nil {
		return err
	}
	var payload wishlistPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse wishlist", err.Error())
	}
	if err := GetDB(c).Model(&domain.Customer{}).Where("id = ?", cust.ID).Updates(map[string]interface{}{
		"wishlist":   cart.EncodeWishlist(payload.Items),
		"updated_at": time.Now(),
	}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to save wishlist", err.Error())
	}
	return ok(c, payload.Items)
}

// mergeLocalState reconciles the locally kept (pre-login) cart and wishlist
// with the server copy. Server wins per item; the merged result is written
// back to the profile and returned.
func mergeLocalState(c echo.Context) error {
	cust, err := currentCustomer(c)
	if err != nil {
		return err
	}
	var payload mergePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse local state", err.Error())
	}

	mergedCart := cart.MergeCart(payload.Cart, cart.DecodeCart(cust.Cart))
	mergedWishlist := cart.MergeWishlist(payload.Wishlist, cart.DecodeWishlist(cust.Wishlist))

	if err := GetDB(c).Model(&domain.Customer{}).Where("id = ?", cust.ID).Updates(map[string]interface{}{
		"cart":       cart.EncodeCart(mergedCart),
		"wishlist":   cart.EncodeWishlist(mergedWishlist),
		"updated_at": time.Now(),
	}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to save merged state", err.Error())
	}

	return ok(c, map[string]interface{}{
		"cart":     mergedCart,
		"wishlist": mergedWishlist,
	})
}

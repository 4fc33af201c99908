package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/banyumasfresh/shop/internal/models"
)

func TestCreateOrderEndpoint(t *testing.T) {
	env := newTestEnv(t)
	cat := env.seedCategory(t, "fruit")
	a := env.seedProduct(t, "apples", "10.00", cat.ID)
	b := env.seedProduct(t, "bananas", "5.00", cat.ID)
	user := env.seedUser(t, "buyer@example.com")

	body := validOrderBody(user.ID,
		map[string]any{"product": a.ID, "quantity": 2},
		map[string]any{"product": b.ID, "quantity": 1},
	)
	rec, c := env.doJSONRequest(t, http.MethodPost, "/api/v1/orders", body)
	require.NoError(t, env.O.CreateOrder(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, decimal.RequireFromString("25.00").Equal(resp.TotalPrice), "got %s", resp.TotalPrice)
	require.Len(t, resp.Items, 2)
	require.Equal(t, a.ID, resp.Items[0].ProductID)
	require.Equal(t, b.ID, resp.Items[1].ProductID)
	require.Equal(t, user.ID, resp.UserID)
}

func TestCreateOrderEndpointUnknownProduct(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "buyer@example.com")

	body := validOrderBody(user.ID, map[string]any{"product": 999, "quantity": 1})
	rec, c := env.doJSONRequest(t, http.MethodPost, "/api/v1/orders", body)
	require.NoError(t, env.O.CreateOrder(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var count int64
	require.NoError(t, env.DB.Model(&models.Order{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestGetOrdersNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	cat := env.seedCategory(t, "fruit")
	a := env.seedProduct(t, "apples", "10.00", cat.ID)
	user := env.seedUser(t, "buyer@example.com")

	for i := 0; i < 2; i++ {
		body := validOrderBody(user.ID, map[string]any{"product": a.ID, "quantity": i + 1})
		_, c := env.doJSONRequest(t, http.MethodPost, "/api/v1/orders", body)
		require.NoError(t, env.O.CreateOrder(c))
	}

	rec, c := env.doJSONRequest(t, http.MethodGet, "/api/v1/orders", nil)
	require.NoError(t, env.O.GetOrders(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	require.False(t, resp[0].DateOrdered.Before(resp[1].DateOrdered))
}

func TestGetOrderMissingAnswers500(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(t, http.MethodGet, "/api/v1/orders/42", nil)
	c.SetParamNames("id")
	c.SetParamValues("42")
	require.NoError(t, env.O.GetOrder(c))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestUpdateOrderStatusEndpoint(t *testing.T) {
	env := newTestEnv(t)
	cat := env.seedCategory(t, "fruit")
	a := env.seedProduct(t, "apples", "10.00", cat.ID)
	user := env.seedUser(t, "buyer@example.com")

	body := validOrderBody(user.ID, map[string]any{"product": a.ID, "quantity": 1})
	_, c := env.doJSONRequest(t, http.MethodPost, "/api/v1/orders", body)
	require.NoError(t, env.O.CreateOrder(c))

	rec, c := env.doJSONRequest(t, http.MethodPut, "/api/v1/orders/1", map[string]string{"status": "Shipped by pigeon"})
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, env.O.UpdateOrderStatus(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Shipped by pigeon", resp.Status)
}

func TestUpdateOrderStatusMissingOrder(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(t, http.MethodPut, "/api/v1/orders/42", map[string]string{"status": "Shipped"})
	c.SetParamNames("id")
	c.SetParamValues("42")
	require.NoError(t, env.O.UpdateOrderStatus(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteOrderEndpoint(t *testing.T) {
	env := newTestEnv(t)
	cat := env.seedCategory(t, "fruit")
	a := env.seedProduct(t, "apples", "10.00", cat.ID)
	user := env.seedUser(t, "buyer@example.com")

	body := validOrderBody(user.ID, map[string]any{"product": a.ID, "quantity": 1})
	_, c := env.doJSONRequest(t, http.MethodPost, "/api/v1/orders", body)
	require.NoError(t, env.O.CreateOrder(c))

	rec, c := env.doJSONRequest(t, http.MethodDelete, "/api/v1/orders/1", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, env.O.DeleteOrder(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var orders, items int64
	require.NoError(t, env.DB.Model(&models.Order{}).Count(&orders).Error)
	require.NoError(t, env.DB.Model(&models.OrderItem{}).Count(&items).Error)
	require.Zero(t, orders)
	require.Zero(t, items)
}

func TestDeleteOrderEndpointNotFound(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(t, http.MethodDelete, "/api/v1/orders/42", nil)
	c.SetParamNames("id")
	c.SetParamValues("42")
	require.NoError(t, env.O.DeleteOrder(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrderCountEndpoint(t *testing.T) {
	env := newTestEnv(t)
	cat := env.seedCategory(t, "fruit")
	a := env.seedProduct(t, "apples", "10.00", cat.ID)
	user := env.seedUser(t, "buyer@example.com")

	for i := 0; i < 3; i++ {
		body := validOrderBody(user.ID, map[string]any{"product": a.ID, "quantity": 1})
		_, c := env.doJSONRequest(t, http.MethodPost, "/api/v1/orders", body)
		require.NoError(t, env.O.CreateOrder(c))
	}

	_, c := env.doJSONRequest(t, http.MethodDelete, "/api/v1/orders/1", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, env.O.DeleteOrder(c))

	rec, c := env.doJSONRequest(t, http.MethodGet, "/api/v1/orders/get/count", nil)
	require.NoError(t, env.O.GetOrderCount(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		OrderCount int64 `json:"orderCount"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, int64(2), resp.OrderCount)
}

func TestTotalSalesEmptySetIsZero(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(t, http.MethodGet, "/api/v1/orders/get/totalsales", nil)
	require.NoError(t, env.O.GetTotalSales(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		TotalSales decimal.Decimal `json:"totalsales"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.TotalSales.IsZero(), "got %s", resp.TotalSales)
}

func TestUserOrdersEndpoint(t *testing.T) {
	env := newTestEnv(t)
	cat := env.seedCategory(t, "fruit")
	a := env.seedProduct(t, "apples", "10.00", cat.ID)
	buyer := env.seedUser(t, "buyer@example.com")
	other := env.seedUser(t, "other@example.com")

	for _, userID := range []uint{buyer.ID, other.ID, buyer.ID} {
		body := validOrderBody(userID, map[string]any{"product": a.ID, "quantity": 1})
		_, c := env.doJSONRequest(t, http.MethodPost, "/api/v1/orders", body)
		require.NoError(t, env.O.CreateOrder(c))
	}

	rec, c := env.doJSONRequest(t, http.MethodGet, "/api/v1/orders/get/userorders/1", nil)
	c.SetParamNames("userid")
	c.SetParamValues("1")
	require.NoError(t, env.O.GetUserOrders(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	for _, o := range resp {
		require.Equal(t, buyer.ID, o.UserID)
	}
}

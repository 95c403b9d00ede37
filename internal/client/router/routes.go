package router

import "strconv"

const (
	PathLogin       = "/login"
	PathClientLogin = "/client-login"
	PathOTP         = "/otp"

	PathHome       = "/"
	PathProfile    = "/profile"
	PathSubscriber = "/subscribers/{id}"
	PathClients    = "/clients"
	PathClient     = "/clients/{id}"
	PathPlans      = "/plans"
	PathStatistics = "/statistics"
)

// GuestRoutes are reachable while logged out.
var GuestRoutes = []string{PathLogin, PathClientLogin, PathOTP}

// AuthRoutes are reachable while logged in.
var AuthRoutes = []string{
	PathHome, PathProfile, PathSubscriber,
	PathClients, PathClient, PathPlans, PathStatistics,
}

// adminOnly are the AuthRoutes that require role admin.
var adminOnly = map[string]bool{
	PathClients:    true,
	PathClient:     true,
	PathPlans:      true,
	PathStatistics: true,
}

// SubscriberPath is the subscription detail route of one customer.
func SubscriberPath(id int64) string {
	return "/subscribers/" + strconv.FormatInt(id, 10)
}

// Package fsms has services for interacting with the FSMC server backend
// decoupled from the API that accesses it.
package fsms

import (
	"github.com/dekarrin/fsmc/server/dao"
)

// DefaultHashCost is the bcrypt cost used for passwords when Service.HashCost
// is not set.
const DefaultHashCost = 14

// Service is a service for interacting with and modifying the FSMC server
// backend. It performs the actions requested and makes calls to server
// persistence to preserve the backend state.
//
// The zero-value of Service is not ready to be used; assign a valid DAO store
// to DB before attempting to use it.
type Service struct {

	// DB is the persistence store of the service.
	DB dao.Store

	// HashCost is the bcrypt cost for new password hashes. If 0,
	// DefaultHashCost is used.
	HashCost int
}

func (svc Service) hashCost() int {
	if svc.HashCost == 0 {
		return DefaultHashCost
	}
	return svc.HashCost
}

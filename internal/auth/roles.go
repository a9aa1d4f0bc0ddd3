package auth

import "github.com/dukapos/retail-core/internal/model"

// Permission predicates, one per guarded operation. Directors and system
// admins see every store; managers and attendants are scoped to their
// home store.

func sameStore(userStore *string, storeID string) bool {
	return userStore != nil && *userStore == storeID
}

func CanProcessSales(role model.Role, userStore *string, storeID string) bool {
	switch role {
	case model.RoleDirector, model.RoleAdmin, model.RoleManager:
		return true
	case model.RoleStaff:
		return sameStore(userStore, storeID)
	}
	return false
}

func CanManageInventory(role model.Role, userStore *string, storeID string) bool {
	switch role {
	case model.RoleDirector, model.RoleAdmin:
		return true
	case model.RoleManager:
		return sameStore(userStore, storeID)
	}
	return false
}

func CanTransferInventory(role model.Role, userStore *string, fromStoreID string) bool {
	switch role {
	case model.RoleDirector, model.RoleAdmin:
		return true
	case model.RoleManager:
		return sameStore(userStore, fromStoreID)
	}
	return false
}

func CanApproveTransfers(role model.Role) bool {
	return role == model.RoleDirector || role == model.RoleAdmin
}

func CanViewReports(role model.Role, userStore *string, storeID *string) bool {
	switch role {
	case model.RoleDirector, model.RoleAdmin:
		return true
	case model.RoleManager:
		if storeID != nil {
			return sameStore(userStore, *storeID)
		}
		return userStore != nil
	}
	return false
}

func CanViewAuditLog(role model.Role) bool {
	return role == model.RoleDirector || role == model.RoleAdmin
}

func CanManageCatalog(role model.Role) bool {
	return role == model.RoleDirector || role == model.RoleAdmin
}

// CommissionEligible reports whether sales made by this role earn
// commission. Directors and admins are salaried, not commissioned.
func CommissionEligible(role model.Role) bool {
	return role == model.RoleStaff || role == model.RoleManager
}

// Copyright (c) 2026 Kaimono. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// IdentityRef is the minimal, non-sensitive reference to an authenticated
// identity that travels in the request context.
//
// It is produced by token validation AFTER the storage round-trip, so it
// always reflects a live, active account — never just the token's claims.
type IdentityRef struct {
	ID       string
	Email    string
	FullName string
}

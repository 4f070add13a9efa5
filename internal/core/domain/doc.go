// Package domain defines the core domain models for restgate.
//
// Domain models are plain values without IO dependencies:
//
//   - ResourceName: canonical names of dispatchable resources
//   - Role, RolePolicy: coarse method permissions per role
//   - Token, Account, User, UserContext: authentication records
//   - Customer, Country, State, Phrase: resource records
//   - DomainError: coded errors mapped to HTTP status at the boundary
package domain

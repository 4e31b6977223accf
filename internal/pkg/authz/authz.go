// Package authz builds the role based access enforcer guarding the user
// management endpoints. Policies live in memory and are seeded from config.
package authz

import (
	"errors"
	"strings"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
)

const (
	RoleAdmin = "admin"

	ObjectUsers = "identity.users"

	ActRead   = "read"
	ActWrite  = "write"
	ActDelete = "delete"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && (p.obj == "*" || r.obj == p.obj) && (p.act == "*" || r.act == p.act)
`

var ErrEmptySubject = errors.New("authz: admin subject must not be empty")

// New returns an enforcer where every subject in admins holds the admin role,
// and the admin role may perform any action on the users object.
func New(admins []string) (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, err
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	if _, err := e.AddPolicy(RoleAdmin, ObjectUsers, "*"); err != nil {
		return nil, err
	}

	for _, sub := range admins {
		sub = strings.TrimSpace(sub)
		if sub == "" {
			return nil, ErrEmptySubject
		}
		if _, err := e.AddGroupingPolicy(sub, RoleAdmin); err != nil {
			return nil, err
		}
	}

	return e, nil
}

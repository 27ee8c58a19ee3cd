package rebac

import "fmt"

// Dialect selects the SQL flavor of a generated access-list query.
type Dialect string

const (
	// DialectPostgres produces the quoted-identifier form, for engines
	// that require explicit case-sensitive quoting and explicit casts for
	// containment checks.
	DialectPostgres Dialect = "postgres"

	// DialectMySQL produces the bare-identifier form, for engines with
	// simpler identifier rules.
	DialectMySQL Dialect = "mysql"
)

// Source relations referenced by every generated access-list query,
// alongside the caller-supplied concrete collection.
const (
	ActorIndexTable      = "actor_index"
	ObjectIndexTable     = "object_index"
	PermissionTupleTable = "permission_tuples"
)

// The two dialect templates compute the same logical result: every row of
// the concrete collection whose identifier is in the union of the
// index-reachable set (actor-index entries for the subject joined to
// object-index entries by exact entity match or wildcard, restricted by
// subject type and permission) and the direct-tuple-reachable set
// (permission tuples carrying the computed tuple as a literal prefix).
const (
	accessListPostgres = `SELECT * FROM "%s" c WHERE CAST(c."id" AS TEXT) IN (` +
		`SELECT ai."entityId" FROM "` + ActorIndexTable + `" ai` +
		` INNER JOIN "` + ObjectIndexTable + `" oi` +
		` ON (oi."entity" = ai."entity" OR oi."entity" = '*')` +
		` WHERE ai."subject" = '%s'` +
		` AND oi."subjectType" = '%s'` +
		` AND oi."subjectPermission" = '%s'` +
		` UNION ` +
		`SELECT pt."objectId" FROM "` + PermissionTupleTable + `" pt` +
		` WHERE pt."tuple" LIKE '%s%%')`

	accessListMySQL = `SELECT * FROM %s c WHERE c.id IN (` +
		`SELECT ai.entityId FROM ` + ActorIndexTable + ` ai` +
		` INNER JOIN ` + ObjectIndexTable + ` oi` +
		` ON (oi.entity = ai.entity OR oi.entity = '*')` +
		` WHERE ai.subject = '%s'` +
		` AND oi.subjectType = '%s'` +
		` AND oi.subjectPermission = '%s'` +
		` UNION ` +
		`SELECT pt.objectId FROM ` + PermissionTupleTable + ` pt` +
		` WHERE pt.tuple LIKE '%s%%')`
)

// BuildAccessListQuery synthesizes a read query returning all rows of
// objectTypeCollection whose identifier the subject may perform action on.
// The prefix match on computedTuple uses a trailing wildcard, so a prefix
// like "folder:1#view@" also reaches tuples scoped under that folder.
//
// The output is a pure string template with no parameter binding and no
// injection defense: every input must already have passed Validate (or an
// equivalent sanitization) before reaching this builder. The function never
// touches the database.
func BuildAccessListQuery(dialect Dialect, objectTypeCollection, computedTuple, subject, objectType, action string) (string, error) {
	switch dialect {
	case DialectPostgres:
		return fmt.Sprintf(accessListPostgres, objectTypeCollection, subject, objectType, action, computedTuple), nil
	case DialectMySQL:
		return fmt.Sprintf(accessListMySQL, objectTypeCollection, subject, objectType, action, computedTuple), nil
	default:
		return "", fmt.Errorf("rebac: unsupported query dialect %q", dialect)
	}
}

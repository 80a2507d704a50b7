package mongodb

import "go.mongodb.org/mongo-driver/bson"

// lookupOne replaces the reference stored at field with the matching
// document from coll, keeping only the projected fields. A missing or
// dangling reference leaves the field unset.
func lookupOne(field, coll string, project bson.M) []bson.M {
	return []bson.M{
		{
			"$lookup": bson.M{
				"from": coll,
				"let":  bson.M{"ref": "$" + field},
				"pipeline": []bson.M{
					{"$match": bson.M{"$expr": bson.M{"$eq": []interface{}{"$_id", "$$ref"}}}},
					{"$project": project},
				},
				"as": field,
			},
		},
		{
			"$unwind": bson.M{
				"path":                       "$" + field,
				"preserveNullAndEmptyArrays": true,
			},
		},
	}
}

var userSummaryProjection = bson.M{"name": 1, "email": 1}

func lookupUser(field string) []bson.M {
	return lookupOne(field, "users", userSummaryProjection)
}

func pipeline(stages ...[]bson.M) []bson.M {
	var out []bson.M
	for _, s := range stages {
		out = append(out, s...)
	}
	return out
}

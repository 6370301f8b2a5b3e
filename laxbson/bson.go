// Package laxbson converts json-lax object trees to BSON documents and back
// with the MongoDB Go driver's bson package.
package laxbson

import (
	"fmt"
	"math"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lattice-substrate/json-lax/laxdate"
	"github.com/lattice-substrate/json-lax/laxerr"
	"github.com/lattice-substrate/json-lax/laxfloat"
	"github.com/lattice-substrate/json-lax/laxvalue"
)

// Marshal encodes an object value as a BSON document. Keys are written in
// byte order so the output is deterministic.
//
// Integral numbers within int32 range encode as int32, within int64 range as
// int64; every other number is a double.
func Marshal(v laxvalue.Value) ([]byte, error) {
	if v.Kind != laxvalue.KindObject {
		return nil, laxerr.Newf(laxerr.UnsupportedType, "BSON document must be an object, got %s", v.Kind)
	}
	out, err := bson.Marshal(toDocument(v))
	if err != nil {
		return nil, laxerr.Wrap(laxerr.InvalidInput, "encode BSON", err)
	}
	return out, nil
}

func toDocument(v laxvalue.Value) bson.D {
	keys := make([]string, 0, len(v.Members))
	for k := range v.Members {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	doc := make(bson.D, 0, len(keys))
	for _, k := range keys {
		doc = append(doc, bson.E{Key: k, Value: toBSON(v.Members[k])})
	}
	return doc
}

func toBSON(v laxvalue.Value) any {
	switch v.Kind {
	case laxvalue.KindBool:
		return v.Bool
	case laxvalue.KindNumber:
		return number(v.Num)
	case laxvalue.KindString:
		return v.Str
	case laxvalue.KindArray:
		arr := make(bson.A, len(v.Elems))
		for i := range v.Elems {
			arr[i] = toBSON(v.Elems[i])
		}
		return arr
	case laxvalue.KindObject:
		return toDocument(v)
	default:
		return nil
	}
}

func number(f float64) any {
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return f
	}
	switch {
	case f >= math.MinInt32 && f <= math.MaxInt32:
		return int32(f)
	// 2^63 itself is not representable, so the upper bound is exclusive.
	case f >= math.MinInt64 && f < math.MaxInt64:
		return int64(f)
	default:
		return f
	}
}

// Unmarshal decodes a BSON document into an object value.
//
// Doubles, 32- and 64-bit integers and decimals become numbers; datetimes
// become strings in laxdate form (UTC); object IDs become their hex string.
// Other BSON types fail with UNSUPPORTED_TYPE.
func Unmarshal(data []byte) (laxvalue.Value, error) {
	var doc bson.D
	if err := bson.Unmarshal(data, &doc); err != nil {
		return laxvalue.Value{}, laxerr.Wrap(laxerr.InvalidInput, "decode BSON", err)
	}
	return fromBSON(doc)
}

func fromBSON(x any) (laxvalue.Value, error) {
	switch t := x.(type) {
	case nil, primitive.Null:
		return laxvalue.Null(), nil
	case bool:
		return laxvalue.Boolean(t), nil
	case int32:
		return laxvalue.Number(float64(t)), nil
	case int64:
		return laxvalue.Number(float64(t)), nil
	case float64:
		return laxvalue.Number(t), nil
	case primitive.Decimal128:
		f, ok := laxfloat.Parse(t.String())
		if !ok {
			return laxvalue.Value{}, laxerr.Newf(laxerr.UnsupportedType, "decimal %s", t.String())
		}
		return laxvalue.Number(f), nil
	case string:
		return laxvalue.String(t), nil
	case primitive.DateTime:
		ts := time.UnixMilli(int64(t)).UTC()
		return laxvalue.String(laxdate.FromTime(ts).String()), nil
	case primitive.ObjectID:
		return laxvalue.String(t.Hex()), nil
	case primitive.D:
		members := make([]laxvalue.Member, 0, len(t))
		for _, e := range t {
			mv, err := fromBSON(e.Value)
			if err != nil {
				return laxvalue.Value{}, fmt.Errorf("document[%q]: %w", e.Key, err)
			}
			members = append(members, laxvalue.Member{Key: e.Key, Value: mv})
		}
		return laxvalue.BuildObject(members...), nil
	case primitive.M:
		members := make([]laxvalue.Member, 0, len(t))
		for k, e := range t {
			mv, err := fromBSON(e)
			if err != nil {
				return laxvalue.Value{}, fmt.Errorf("document[%q]: %w", k, err)
			}
			members = append(members, laxvalue.Member{Key: k, Value: mv})
		}
		return laxvalue.BuildObject(members...), nil
	case primitive.A:
		return fromArray(t)
	case []any:
		return fromArray(t)
	default:
		return laxvalue.Value{}, laxerr.Newf(laxerr.UnsupportedType, "unsupported BSON value %T", x)
	}
}

func fromArray(items []any) (laxvalue.Value, error) {
	elems := make([]laxvalue.Value, 0, len(items))
	for i, item := range items {
		ev, err := fromBSON(item)
		if err != nil {
			return laxvalue.Value{}, fmt.Errorf("array[%d]: %w", i, err)
		}
		elems = append(elems, ev)
	}
	return laxvalue.Array(elems...), nil
}

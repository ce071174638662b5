// Package shape is the closed catalog of element kinds.
// Unknown document types fall back to Generic instead of erroring so that a
// document never fails to render over a typo in a type tag.
package shape

type Kind int8

const (
	Generic Kind = iota
	Service
	Database
	Queue
	Cache
	Storage
	Function
	Gateway
	User
	External
)

var Kinds = []Kind{
	Generic,
	Service,
	Database,
	Queue,
	Cache,
	Storage,
	Function,
	Gateway,
	User,
	External,
}

func FromString(s string) Kind {
	switch s {
	case "service":
		return Service
	case "database", "db":
		return Database
	case "queue":
		return Queue
	case "cache":
		return Cache
	case "storage", "bucket":
		return Storage
	case "function", "lambda":
		return Function
	case "gateway":
		return Gateway
	case "user", "person":
		return User
	case "external":
		return External
	default:
		return Generic
	}
}

func (k Kind) String() string {
	switch k {
	case Service:
		return "service"
	case Database:
		return "database"
	case Queue:
		return "queue"
	case Cache:
		return "cache"
	case Storage:
		return "storage"
	case Function:
		return "function"
	case Gateway:
		return "gateway"
	case User:
		return "user"
	case External:
		return "external"
	default:
		return "generic"
	}
}

// BaseSize is the unscaled icon size before label fitting and scale
// multipliers apply.
func (k Kind) BaseSize() (width, height float64) {
	switch k {
	case Database, Storage:
		return 110, 80
	case Queue:
		return 150, 56
	case User:
		return 90, 90
	default:
		return 120, 64
	}
}

// IconPath returns SVG path data for the kind glyph, drawn in a 24x24 viewbox.
// The renderer translates and scales it into place.
func (k Kind) IconPath() string {
	switch k {
	case Service:
		// gear
		return "M12 8.5a3.5 3.5 0 1 0 0 7 3.5 3.5 0 0 0 0-7Zm8.9 5-2.1.7.2 2.2-2 1.1-1.6-1.5-2 .8-.5 2.2h-2.3l-.5-2.2-2-.8-1.6 1.5-2-1.1.2-2.2-2.1-.7v-2.3l2.1-.7-.2-2.2 2-1.1 1.6 1.5 2-.8.5-2.2h2.3l.5 2.2 2 .8 1.6-1.5 2 1.1-.2 2.2 2.1.7Z"
	case Database:
		// cylinder
		return "M4 6c0-1.7 3.6-3 8-3s8 1.3 8 3v12c0 1.7-3.6 3-8 3s-8-1.3-8-3Zm0 0c0 1.7 3.6 3 8 3s8-1.3 8-3"
	case Queue:
		// stacked slots
		return "M3 8h4v8H3Zm7 0h4v8h-4Zm7 0h4v8h-4Z"
	case Cache:
		// lightning in a box
		return "M4 4h16v16H4Zm9 2-5 8h3l-1 6 5-8h-3Z"
	case Storage:
		// bucket
		return "M4 6h16l-2 14H6Zm0 0c0-1.1 3.6-2 8-2s8 .9 8 2"
	case Function:
		// fn brackets
		return "M8 4C6 4 6 6 6 8v2c0 1-1 2-2 2 1 0 2 1 2 2v2c0 2 0 4 2 4m8-16c2 0 2 2 2 4v2c0 1 1 2 2 2-1 0-2 1-2 2v2c0 2 0 4-2 4"
	case Gateway:
		// diamond
		return "M12 3 21 12l-9 9-9-9Z"
	case User:
		// head and shoulders
		return "M12 4a4 4 0 1 1 0 8 4 4 0 0 1 0-8Zm-8 16c0-4 3.6-6 8-6s8 2 8 6"
	case External:
		// dashed square with arrow
		return "M4 4h6M14 4h6v6M20 14v6h-6M10 20H4v-6M13 11l7-7M20 4h-5M20 4v5"
	default:
		// plain square
		return "M5 5h14v14H5Z"
	}
}

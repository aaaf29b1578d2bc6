package glapi

import "fmt"

// Type is a GL variable type tag as returned by glGetActiveUniform. The
// values are the GL enums themselves.
type Type uint32

const (
	Float     Type = 0x1406
	FloatVec2 Type = 0x8B50
	FloatVec3 Type = 0x8B51
	FloatVec4 Type = 0x8B52
	Double    Type = 0x140A
	Int       Type = 0x1404
	IntVec2   Type = 0x8B53
	IntVec3   Type = 0x8B54
	IntVec4   Type = 0x8B55
	Uint      Type = 0x1405
	UintVec2  Type = 0x8DC6
	UintVec3  Type = 0x8DC7
	UintVec4  Type = 0x8DC8
	Bool      Type = 0x8B56
	BoolVec2  Type = 0x8B57
	BoolVec3  Type = 0x8B58
	BoolVec4  Type = 0x8B59
	FloatMat2 Type = 0x8B5A
	FloatMat3 Type = 0x8B5B
	FloatMat4 Type = 0x8B5C

	Sampler2D        Type = 0x8B5E
	Sampler3D        Type = 0x8B5F
	SamplerCube      Type = 0x8B60
	Sampler2DArray   Type = 0x8DC1
	IntSampler2D     Type = 0x8DCA
	UintSampler2D    Type = 0x8DD2
	Sampler2DShadow  Type = 0x8B62
	SamplerBuffer    Type = 0x8DC2
	Sampler2DRect    Type = 0x8B63
	Sampler2DMSample Type = 0x9108
)

func (t Type) String() string {
	switch t {
	case Float:
		return "float"
	case FloatVec2:
		return "vec2"
	case FloatVec3:
		return "vec3"
	case FloatVec4:
		return "vec4"
	case Double:
		return "double"
	case Int:
		return "int"
	case IntVec2:
		return "ivec2"
	case IntVec3:
		return "ivec3"
	case IntVec4:
		return "ivec4"
	case Uint:
		return "uint"
	case UintVec2:
		return "uvec2"
	case UintVec3:
		return "uvec3"
	case UintVec4:
		return "uvec4"
	case Bool:
		return "bool"
	case BoolVec2:
		return "bvec2"
	case BoolVec3:
		return "bvec3"
	case BoolVec4:
		return "bvec4"
	case FloatMat2:
		return "mat2"
	case FloatMat3:
		return "mat3"
	case FloatMat4:
		return "mat4"
	case Sampler2D:
		return "sampler2D"
	case Sampler3D:
		return "sampler3D"
	case SamplerCube:
		return "samplerCube"
	case Sampler2DArray:
		return "sampler2DArray"
	case IntSampler2D:
		return "isampler2D"
	case UintSampler2D:
		return "usampler2D"
	case Sampler2DShadow:
		return "sampler2DShadow"
	case SamplerBuffer:
		return "samplerBuffer"
	case Sampler2DRect:
		return "sampler2DRect"
	case Sampler2DMSample:
		return "sampler2DMS"
	}
	return fmt.Sprintf("invalid(0x%x)", uint32(t))
}

// Components is the number of scalars in one element of the type, or 0
// for opaque types such as samplers.
func (t Type) Components() int {
	switch t {
	case Float, Double, Int, Uint, Bool:
		return 1
	case FloatVec2, IntVec2, UintVec2, BoolVec2:
		return 2
	case FloatVec3, IntVec3, UintVec3, BoolVec3:
		return 3
	case FloatVec4, IntVec4, UintVec4, BoolVec4, FloatMat2:
		return 4
	case FloatMat3:
		return 9
	case FloatMat4:
		return 16
	}
	return 0
}

func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

var allTypes = []Type{
	Float, FloatVec2, FloatVec3, FloatVec4, Double,
	Int, IntVec2, IntVec3, IntVec4,
	Uint, UintVec2, UintVec3, UintVec4,
	Bool, BoolVec2, BoolVec3, BoolVec4,
	FloatMat2, FloatMat3, FloatMat4,
	Sampler2D, Sampler3D, SamplerCube, Sampler2DArray, IntSampler2D,
	UintSampler2D, Sampler2DShadow, SamplerBuffer, Sampler2DRect, Sampler2DMSample,
}

func (t *Type) UnmarshalText(b []byte) error {
	for _, candidate := range allTypes {
		if candidate.String() == string(b) {
			*t = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown GLSL type %q", b)
}

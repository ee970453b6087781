package domain

// IObject 最基础的对象接口，所有实体的根接口。
type IObject[T comparable] interface {
	// GetID 返回对象的唯一标识
	GetID() T
}

// IValidatable 可验证接口。
// 实现此接口的实体可以在提交远端之前验证自身状态的有效性。
type IValidatable interface {
	// Validate 验证实体状态是否有效
	// 返回 error 表示验证失败，nil 表示验证成功
	Validate() error
}

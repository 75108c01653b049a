package evt

// Event 属于分组 G 的事件类型约束
//
// 只能通过嵌入 In[G] 满足。同时嵌入两个不同分组的类型因方法冲突不满足任何分组。
type Event[G any] interface {
	eventGroup(G)
}

// In 分组成员声明，嵌入到事件结构体中
//
// 零大小，放在结构体首部不增加事件大小。
type In[G any] struct{}

func (In[G]) eventGroup(G) {}

// Publisher 可发布分组 G 事件的目标，由 *Bus[G] 与 View[G] 实现
type Publisher[G any] interface {
	target() *Bus[G]
}

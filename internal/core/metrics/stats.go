package metrics

// Stats 单条总线的统计快照
type Stats struct {
	Bus        string // 总线名称
	Pushed     int64  // 累计入队事件
	Rejected   int64  // 停止接收后被拒绝的事件
	Dispatched int64  // 累计分发事件
	Drains     int64  // 非空排空批次数
	Pending    int64  // 最近一次上报的待处理数量

	DispatchRate float64 // 最近 60 秒的平均分发速率（事件/秒）
}

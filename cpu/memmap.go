package cpu

const (
	MEMORY_SIZE  = 0x10000 // Words of memory.
	PORT_CONSOLE = 0xffff  // Console character port.
	PORT_START   = 0xffff  // First memory mapped port address.
	STACK_TOP    = 0xffff  // Initial sp, so the first push lands below the ports.
)

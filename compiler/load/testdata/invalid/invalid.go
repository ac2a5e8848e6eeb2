package invalid

//autocolumn:model table_name:things
type Thing struct {
	ID int
}

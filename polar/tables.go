package polar

var angles = []float64{0, 30, 45, 52, 60, 75, 90, 110, 135, 150, 180}

var winds = []float64{6, 10, 15, 20, 25, 30, 35}

var sailboat = Table{
	Winds:  winds,
	Angles: angles,
	Speed: [][]float64{
		{0, 0, 0, 3.2, 3.8, 4.1, 4.3, 4.7, 4.5, 4.0, 3.5},
		{0, 0, 0, 5.5, 6.2, 6.8, 7.2, 7.8, 7.5, 6.8, 6.0},
		{0, 0, 0, 7.5, 8.2, 9.0, 9.5, 10.2, 9.8, 9.0, 8.0},
		{0, 0, 0, 8.5, 9.2, 10.0, 10.5, 11.0, 10.5, 9.5, 8.5},
		{0, 0, 0, 8.8, 9.5, 10.2, 10.8, 11.2, 10.8, 10.0, 9.0},
		{0, 0, 0, 9.0, 9.8, 10.5, 11.0, 11.5, 11.0, 10.2, 9.2},
		// reefed
		{0, 0, 0, 9.0, 9.5, 10.0, 10.5, 11.0, 10.5, 10.0, 9.0},
	},
}

var catamaran = Table{
	Winds:  winds,
	Angles: angles,
	Speed: [][]float64{
		{0, 0, 0, 4.0, 4.8, 5.5, 6.0, 6.5, 6.2, 5.5, 5.0},
		{0, 0, 0, 7.0, 8.0, 9.0, 10.0, 11.0, 10.5, 9.5, 8.5},
		{0, 0, 0, 10.0, 11.5, 13.0, 14.5, 16.0, 15.5, 14.0, 12.5},
		{0, 0, 0, 12.0, 14.0, 16.0, 18.0, 20.0, 19.0, 17.0, 15.0},
		{0, 0, 0, 13.5, 15.5, 17.5, 19.5, 21.5, 20.5, 18.5, 16.5},
		{0, 0, 0, 14.0, 16.0, 18.0, 20.0, 22.0, 21.0, 19.0, 17.0},
		{0, 0, 0, 14.0, 16.0, 18.0, 20.0, 21.5, 20.5, 19.0, 17.0},
	},
}

// motorboat slows down in head seas
var motorboat = Table{
	Winds:  winds,
	Angles: angles,
	Speed: [][]float64{
		{18.0, 18.0, 18.0, 18.0, 18.0, 18.0, 18.0, 18.0, 18.0, 18.0, 18.0},
		{17.5, 17.5, 18.0, 18.0, 18.0, 18.5, 18.5, 19.0, 19.0, 19.0, 19.5},
		{17.0, 17.0, 17.5, 17.5, 18.0, 18.5, 18.5, 19.0, 19.0, 19.5, 20.0},
		{16.0, 16.0, 16.5, 17.0, 17.5, 18.0, 18.5, 19.0, 19.5, 20.0, 20.5},
		{15.0, 15.0, 15.5, 16.0, 17.0, 17.5, 18.0, 19.0, 19.5, 20.0, 21.0},
		{14.0, 14.0, 14.5, 15.0, 16.0, 17.0, 17.5, 18.5, 19.0, 19.5, 20.5},
		{12.0, 12.0, 13.0, 14.0, 15.0, 16.0, 17.0, 18.0, 18.5, 19.0, 20.0},
	},
}

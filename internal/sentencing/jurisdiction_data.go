package sentencing

// builtinStandards is the provincial theft and fraud threshold table, in yuan.
func builtinStandards() map[string]JurisdictionStandard {
	return map[string]JurisdictionStandard{
		DefaultJurisdiction: std(1000, 30000, 300000, 3000, 30000, 500000),
		"北京": std(2000, 60000, 400000, 5000, 100000, 500000),
		"上海": std(6000, 100000, 500000, 6000, 100000, 500000),
		"广东": std(3000, 100000, 500000, 6000, 100000, 500000),
		"惠州": std(2000, 60000, 400000, 4000, 60000, 500000),
		"江门": std(2000, 60000, 400000, 4000, 60000, 500000),
		"汕头": std(2000, 60000, 400000, 4000, 60000, 500000),
		"江苏": std(2000, 50000, 400000, 6000, 100000, 500000),
		"浙江": std(3000, 80000, 400000, 6000, 100000, 500000),
		"山东": std(2000, 60000, 400000, 6000, 80000, 500000),
		"天津": std(1000, 30000, 300000, 5000, 50000, 500000),
		"重庆": std(2000, 60000, 400000, 5000, 70000, 500000),
		"贵州": std(1000, 30000, 300000, 3000, 50000, 500000),
		"河南": std(2000, 50000, 400000, 5000, 50000, 500000),
		"河北": std(2000, 60000, 400000, 5000, 60000, 500000),
		"辽宁": std(2000, 70000, 400000, 6000, 60000, 500000),
		"四川": std(1600, 50000, 300000, 5000, 50000, 500000),
		"安徽": std(2000, 50000, 400000, 5000, 50000, 500000),
		"陕西": std(1000, 30000, 300000, 5000, 50000, 500000),
		"山西": std(1000, 30000, 300000, 5000, 80000, 500000),
		"湖南": std(2000, 50000, 400000, 5000, 50000, 500000),
		"湖北": std(2000, 50000, 500000, 5000, 50000, 500000),
		"福建": std(3000, 60000, 300000, 5000, 100000, 500000),
		"云南": std(1500, 40000, 350000, 5000, 50000, 500000),
		"广西": std(1500, 40000, 400000, 5000, 50000, 500000),
		"江西": std(1500, 50000, 400000, 5000, 50000, 500000),
		"吉林": std(2000, 30000, 300000, 5000, 50000, 500000),
		"黑龙江": std(1500, 50000, 350000, 5000, 50000, 500000),
		"海南": std(1500, 15000, 70000, 5000, 50000, 500000),
		"甘肃": std(2000, 60000, 400000, 3000, 30000, 500000),
		"青海": std(2000, 30000, 300000, 3000, 30000, 500000),
		"内蒙古": std(1600, 30000, 300000, 5000, 50000, 500000),
		"宁夏": std(1500, 30000, 300000, 3000, 30000, 500000),
		"西藏": std(2000, 50000, 400000, 6000, 50000, 500000),
		"新疆": std(1000, 30000, 300000, 3000, 50000, 500000),
	}
}

func std(theftLarge, theftHuge, theftEspecially, fraudLarge, fraudHuge, fraudEspecially float64) JurisdictionStandard {
	return JurisdictionStandard{
		CategoryTheft: {Large: theftLarge, Huge: theftHuge, EspeciallyHuge: theftEspecially},
		CategoryFraud: {Large: fraudLarge, Huge: fraudHuge, EspeciallyHuge: fraudEspecially},
	}
}

// builtinCitySynonyms resolves municipal names to their province.
func builtinCitySynonyms() map[string]string {
	return map[string]string{
		"江门": "广东",
		"深圳": "广东",
		"广州": "广东",
		"珠海": "广东",
		"佛山": "广东",
		"东莞": "广东",
		"中山": "广东",
		"杭州": "浙江",
		"宁波": "浙江",
		"温州": "浙江",
		"嘉兴": "浙江",
		"绍兴": "浙江",
		"台州": "浙江",
		"义乌": "浙江",
		"南京": "江苏",
		"苏州": "江苏",
		"无锡": "江苏",
		"常州": "江苏",
		"徐州": "江苏",
		"济南": "山东",
		"青岛": "山东",
		"烟台": "山东",
		"潍坊": "山东",
		"大连": "辽宁",
		"沈阳": "辽宁",
		"福州": "福建",
		"厦门": "福建",
		"哈尔滨": "黑龙江",
		"长春": "吉林",
		"成都": "四川",
		"西安": "陕西",
		"武汉": "湖北",
		"长沙": "湖南",
		"贵阳": "贵州",
		"昆明": "云南",
		"南宁": "广西",
		"石家庄": "河北",
		"太原": "山西",
		"南昌": "江西",
		"合肥": "安徽",
		"郑州": "河南",
		"海口": "海南",
		"乌鲁木齐": "新疆",
		"呼和浩特": "内蒙古",
		"银川": "宁夏",
		"西宁": "青海",
		"拉萨": "西藏",
		"兰州": "甘肃",
	}
}
